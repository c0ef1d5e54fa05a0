package interpret

// Observer receives counts from interpretation passes.
// Implementations must be safe for concurrent use.
type Observer interface {
	// FramesChunked is called with the number of frames produced for a message.
	FramesChunked(n int)

	// RecordsReassembled is called with the number of records closed.
	RecordsReassembled(n int)

	// ReassemblyFailed is called when a frame sequence cannot be reconstructed.
	ReassemblyFailed()

	// IncompleteMessage is called when reassembly saw no terminator.
	IncompleteMessage()
}

type noopObserver struct{}

func (noopObserver) FramesChunked(int)      {}
func (noopObserver) RecordsReassembled(int) {}
func (noopObserver) ReassemblyFailed()      {}
func (noopObserver) IncompleteMessage()     {}
