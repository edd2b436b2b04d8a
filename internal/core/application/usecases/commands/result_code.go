package commands

// ResultCode is the outcome of a recommendation run as shown to operators.
type ResultCode int

const (
	UnknownResult ResultCode = iota
	Recommended
	NoPendingTransfers
	NoTrolleyAvailable
	AlreadyRunning
	PriorBatchPending
)

func getResultCodeStrings() map[ResultCode]string {
	return map[ResultCode]string{
		UnknownResult:      "Unknown",
		Recommended:        "Recommended",
		NoPendingTransfers: "NoPendingTransfers",
		NoTrolleyAvailable: "NoTrolleyAvailable",
		AlreadyRunning:     "AlreadyRunning",
		PriorBatchPending:  "PriorBatchPending",
	}
}

func (c ResultCode) String() string {
	if s, ok := getResultCodeStrings()[c]; ok {
		return s
	}
	return "Unknown"
}
