package marketdata

// RefreshJob is the scheduled job that refreshes the configured ticker
// universe. It satisfies the scheduler's Job interface.
type RefreshJob struct {
	service      *Service
	tickers      []string
	lookbackDays int
}

// NewRefreshJob creates a refresh job for the given ticker universe.
func NewRefreshJob(service *Service, tickers []string, lookbackDays int) *RefreshJob {
	return &RefreshJob{
		service:      service,
		tickers:      tickers,
		lookbackDays: lookbackDays,
	}
}

// Name returns the job name for scheduler logging.
func (j *RefreshJob) Name() string {
	return "price_refresh"
}

// Run refreshes price history for the configured tickers.
func (j *RefreshJob) Run() error {
	return j.service.Refresh(j.tickers, j.lookbackDays)
}
