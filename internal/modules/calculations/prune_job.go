package calculations

// PruneJob is the scheduled job that removes expired cache entries. It
// satisfies the scheduler's Job interface.
type PruneJob struct {
	cache *Cache
}

// NewPruneJob creates a cache prune job.
func NewPruneJob(cache *Cache) *PruneJob {
	return &PruneJob{cache: cache}
}

// Name returns the job name for scheduler logging.
func (j *PruneJob) Name() string {
	return "cache_prune"
}

// Run deletes expired cache entries.
func (j *PruneJob) Run() error {
	return j.cache.Prune()
}
