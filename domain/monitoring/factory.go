package monitoring

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
)

type MonitoringControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	deps   Dependencies
	logger *log.Logger
}

func NewMonitoringControllerFactory(deps Dependencies, logger *log.Logger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{deps: deps, logger: logger}
}

func (f *DefaultMonitoringControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.deps, f.logger)
}
