package common

import (
	"fmt"
	"sort"
	"sync"
)

// ServiceState is the state of a service
type ServiceState uint32

const (
	// NEW the service is constructed but not inited
	NEW ServiceState = iota
	// INITED the service finished Init
	INITED
	// STARTING the service is starting
	STARTING
	// RUNNING the service is running
	RUNNING
	// STOPPING the service is stopping
	STOPPING
	// TERMINATED the service is stopped
	TERMINATED
	// FAILED the service failed
	FAILED
)

var serviceStateStrings = map[ServiceState]string{
	NEW:        "NEW",
	INITED:     "INITED",
	STARTING:   "STARTING",
	RUNNING:    "RUNNING",
	STOPPING:   "STOPPING",
	TERMINATED: "TERMINATED",
	FAILED:     "FAILED"}

func (p ServiceState) String() string {
	return serviceStateStrings[p]
}

var validStateTransfer = map[ServiceState][]ServiceState{
	NEW:        {INITED, FAILED, TERMINATED},
	INITED:     {STARTING, FAILED, TERMINATED},
	STARTING:   {RUNNING, FAILED, TERMINATED},
	RUNNING:    {STOPPING, FAILED, TERMINATED},
	STOPPING:   {TERMINATED, FAILED},
	TERMINATED: {},
	FAILED:     {},
}

// IsValidServiceState checks whether the state transfer is valid
func IsValidServiceState(oldState ServiceState, newState ServiceState) bool {
	if targetStates, ok := validStateTransfer[oldState]; ok {
		for _, targetState := range targetStates {
			if targetState == newState {
				return true
			}
		}
	}
	return false
}

// Initable marks a type which needs Init before use
type Initable interface {
	// Init executes the init operation,returns the failure reason on error
	Init() error
}

// Service is the unified service interface
type Service interface {
	Initable
	// Name the service name
	Name() string
	// Start the service
	Start() bool
	// GetStartOrder the start order
	GetStartOrder() int
	// Stop the service
	Stop() bool
	// GetStopOrder the stop order
	GetStopOrder() int
	// State the service state
	State() ServiceState
	setState(newState ServiceState) bool
}

// ServiceInit inits the service
func ServiceInit(service Service) bool {
	if service.State() == INITED {
		Infof("%s has been inited,skip", ServiceName(service))
		return true
	}
	name := ServiceName(service)
	err := service.Init()
	if err == nil && service.setState(INITED) {
		return true
	}
	Errorf("init %s fail,err:%s", name, err)
	service.setState(FAILED)
	return false
}

// ServiceStart starts the service
func ServiceStart(service Service) bool {
	name := ServiceName(service)
	service.setState(STARTING)
	if service.Start() && service.setState(RUNNING) {
		return true
	}
	Errorf("start %s fail", name)
	service.setState(FAILED)
	return false
}

// ServiceStop stops the service
func ServiceStop(service Service) bool {
	name := ServiceName(service)
	service.setState(STOPPING)
	if service.Stop() && service.setState(TERMINATED) {
		return true
	}
	Errorf("stop %s fail", name)
	service.setState(FAILED)
	return false
}

// BaseService supplies the basic Service implementation
type BaseService struct {
	SName     string
	Order     int
	state     ServiceState
	stateLock sync.RWMutex
}

// Name the service name
func (p *BaseService) Name() string {
	return p.SName
}

// Init default init
func (p *BaseService) Init() error {
	return nil
}

// Start default start
func (p *BaseService) Start() bool {
	return true
}

// GetStartOrder the start order
func (p *BaseService) GetStartOrder() int {
	return p.Order
}

// Stop default stop
func (p *BaseService) Stop() bool {
	return true
}

// GetStopOrder the stop order,reverse of the start order
func (p *BaseService) GetStopOrder() int {
	return -p.GetStartOrder()
}

// State the service state
func (p *BaseService) State() ServiceState {
	p.stateLock.RLock()
	defer p.stateLock.RUnlock()
	return p.state
}

func (p *BaseService) setState(newState ServiceState) bool {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()
	if IsValidServiceState(p.state, newState) {
		p.state = newState
		return true
	}
	Errorf("Invalid state transfer %s->%s,%s", p.state, newState, p.Name())
	return false
}

// ServiceName the descriptive name of the service
func ServiceName(service Service) string {
	name := fmt.Sprintf("%T", service)
	if service.Name() != "" {
		name += "#" + service.Name()
	}
	return name
}

// Services is a group of Service ordered by the start order
type Services struct {
	sorted []Service
}

// NewServices builds a service group
func NewServices(services []Service) *Services {
	var sorted = make([]Service, len(services))
	copy(sorted, services)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GetStartOrder() < sorted[j].GetStartOrder()
	})
	return &Services{sorted: sorted}
}

// Init inits all the services
func (p *Services) Init() bool {
	for _, service := range p.sorted {
		if !ServiceInit(service) {
			return false
		}
	}
	return true
}

// Start starts all the services by the start order
func (p *Services) Start() bool {
	for _, service := range p.sorted {
		if !ServiceStart(service) {
			return false
		}
	}
	return true
}

// Stop stops all the services by the reverse of the start order
func (p *Services) Stop() bool {
	for i := len(p.sorted) - 1; i >= 0; i-- {
		if !ServiceStop(p.sorted[i]) {
			Warnf("stop %s fail", ServiceName(p.sorted[i]))
		}
	}
	return true
}
