package waitlist

import (
	"github.com/grahmind/careers-waitlist/config/router"
	"github.com/grahmind/careers-waitlist/internal/log"
	"github.com/grahmind/careers-waitlist/pkg/liststore"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	updater *liststore.Updater
	logger  *log.Logger
	opts    []ServiceOption
}

func NewWaitlistServiceFactory(updater *liststore.Updater, logger *log.Logger, opts ...ServiceOption) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		updater: updater,
		logger:  logger,
		opts:    opts,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.updater, f.opts...)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.updater, f.logger, f.opts...)
}
