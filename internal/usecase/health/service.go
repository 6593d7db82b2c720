package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog is unusable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status  Status
	Records int
	Skipped int
	Checks  map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogStats
	cache   CachePinger
}

// New creates a Service. cache can be nil.
func New(catalog CatalogStats, cache CachePinger) *Service {
	return &Service{catalog: catalog, cache: cache}
}

// Check runs health checks. An empty dataset is unhealthy; a missing index
// or an unreachable cache only degrade the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	st := s.catalog.Stats()

	checks["dataset"] = result(st.Records > 0)
	checks["index"] = result(st.IndexReady)
	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx) == nil)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["dataset"] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Records: st.Records, Skipped: st.Skipped, Checks: checks}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
