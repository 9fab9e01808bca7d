package i

// Metrics receives generation lifecycle events.
type Metrics interface {
	GenerationStarted()
	GenerationCompleted(steps int)
	StepsRequested(n int)
	SetActive(n int)
}
