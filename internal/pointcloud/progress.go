package pointcloud

import "context"

// ProgressFunc receives the fraction of input consumed, in (0, 1].
type ProgressFunc func(fraction float64)

// minProgressStep keeps callbacks to roughly one per percent.
const minProgressStep = 0.01

// checkInterval is how many records are parsed between context checks.
const checkInterval = 4096

// progress emits strictly increasing fractions and reserves 1.0 for finish.
type progress struct {
	total int
	fn    ProgressFunc
	last  float64
}

func newProgress(total int, fn ProgressFunc) *progress {
	return &progress{total: total, fn: fn}
}

func (p *progress) report(consumed int) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	f := float64(consumed) / float64(p.total)
	if f >= 1 || f-p.last < minProgressStep {
		return
	}
	p.last = f
	p.fn(f)
}

func (p *progress) finish() {
	if p.fn == nil || p.last >= 1 {
		return
	}
	p.last = 1
	p.fn(1)
}

// tick reports progress and checks for cancellation every checkInterval records.
func (p *progress) tick(ctx context.Context, record, consumed int) error {
	if record%checkInterval != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.report(consumed)
	return nil
}
