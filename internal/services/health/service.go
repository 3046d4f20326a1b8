package health

// Service encapsulates health-related checks.
type Service struct {
	AppName string
}

// NewService constructs a new health service.
func NewService(appName string) *Service {
	return &Service{AppName: appName}
}

// Status returns a simple health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{"ok": true, "app": s.AppName}
}
