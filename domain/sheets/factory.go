package sheets

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
)

type SubmitEmailControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultSubmitEmailControllerFactory struct {
	client Appender
	logger *log.Logger
}

func NewSubmitEmailControllerFactory(client Appender, logger *log.Logger) SubmitEmailControllerFactory {
	return &DefaultSubmitEmailControllerFactory{client: client, logger: logger}
}

func (f *DefaultSubmitEmailControllerFactory) CreateController() *router.RESTController {
	return NewSubmitEmailController(f.client, f.logger)
}
