package models

// ModelRegistry lists the gorm models owned by this service, in migration order.
var ModelRegistry = []interface{}{
	&AdminSession{},
}
