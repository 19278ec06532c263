package line

// Processor receives the decoded lines of a read session in file order.
type Processor interface {
	// ProcessLine handles a single decoded line.
	// Returns error if reading should stop.
	ProcessLine(line string) error
}
