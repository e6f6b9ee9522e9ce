package workflow

import (
	"context"
	"strings"

	"github.com/FlowForge/flowforge/pkg/service"
)

// spyService records how it was called and returns a canned outcome.
type spyService struct {
	calls      int
	lastUser   any
	lastParams service.Params
	result     *service.Result
	err        error
}

func (s *spyService) Call(_ context.Context, user any, params service.Params) (*service.Result, error) {
	s.calls++
	s.lastUser = user
	s.lastParams = params

	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return service.OK(nil), nil
}

func resourceService(resource any) *spyService {
	return &spyService{result: service.Resourceful(resource)}
}

func failingService(message string) *spyService {
	return &spyService{result: service.Failed(message, "failed")}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
