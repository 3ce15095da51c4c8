package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEpisodeProgressChecker_HealthyWhileAdvancing(t *testing.T) {
	episode := 0
	checker := NewEpisodeProgressChecker(func() int { return episode })

	result := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)

	episode = 5
	result = checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, 5, result.Details["episodes_so_far"])
}

func TestHealthService_GetOverallStatus_AggregatesWorstCase(t *testing.T) {
	svc := NewHealthService(0)
	svc.Register(NewLivenessChecker())
	svc.Register(NewComponentHealthChecker("stats_writer", func(ctx context.Context) (bool, string, map[string]interface{}) {
		return false, "disk full", nil
	}))

	status, results := svc.GetOverallStatus(context.Background())
	assert.Equal(t, StatusUnhealthy, status)
	assert.Len(t, results, 2)
}

func TestSystemResourceChecker_ReportsHealthyUnderThreshold(t *testing.T) {
	checker := NewSystemResourceChecker(99.99, 1_000_000)
	result := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
}
