package dto

// Res is the envelope of every JSON response.
type Res struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
	Data    any  `json:"data"`
}

// ErrorType describes one failed validation.
type ErrorType struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func OK(data any) Res {
	return Res{Success: true, Data: data}
}
