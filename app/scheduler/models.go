package scheduler

// DrawAndRecreateJob runs the weekly draw on the current round and, when a
// winner was selected, opens the next round.
type DrawAndRecreateJob struct{}

// Kind returns the job type identifier for River.
func (DrawAndRecreateJob) Kind() string { return "draw_and_recreate" }

// PaymentSweepJob flags stale pending payments and expires abandoned ones.
type PaymentSweepJob struct{}

// Kind returns the job type identifier for River.
func (PaymentSweepJob) Kind() string { return "payment_sweep" }
