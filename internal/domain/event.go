package domain

// ExtractedEvent es el objeto que el modelo debe devolver (un único JSON) en
// el camino one-shot de creación de eventos.
type ExtractedEvent struct {
	Title     string `json:"title"`
	StartTime string `json:"startTime"`
}
