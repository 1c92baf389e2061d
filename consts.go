package bitcontend

// Defaults for a run with no overrides. Changing any of them changes the
// experiment being measured.
const (
	// Threads is the number of worker OS threads.
	Threads = 20

	// BitmapSize is the size of the shared bitmap in bytes.
	BitmapSize = 512 * 1024 * 1024

	// ReportEvery is how many iterations worker 0 runs between throughput
	// samples.
	ReportEvery = 50_000_000

	// Randomize picks xorshift indexes instead of the constant index. The
	// slowdown is most visible when every thread hits the same bit.
	Randomize = false

	// MemoryOperand picks the locked memory operand bts instead of the
	// load/bts/store sequence.
	MemoryOperand = true
)
