package dto

// BatchEntriesRequest lote de documentos de entrada (API móvil). Los documentos
// se aplican en secuencia, cada uno en su propia transacción.
type BatchEntriesRequest struct {
	Documents []CreateEntryRequest `json:"documents" validate:"required,min=1,dive"`
}

// BatchExitsRequest lote de documentos de salida (API móvil).
type BatchExitsRequest struct {
	Documents []CreateExitRequest `json:"documents" validate:"required,min=1,dive"`
}

// BatchDocumentResult resultado de un documento del lote, en el orden enviado.
type BatchDocumentResult struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchResponse resumen de un lote procesado. Submitted cuenta los documentos
// confirmados; si Failed es 1, los documentos posteriores al fallido no se
// intentaron.
type BatchResponse struct {
	Submitted int                   `json:"submitted"`
	Failed    int                   `json:"failed"`
	Results   []BatchDocumentResult `json:"results"`
}
