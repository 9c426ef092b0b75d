package response

// Response represents the standard API envelope consumed by the frontend
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Paginated is the envelope for list endpoints. Data is always an array.
type Paginated struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Success returns a standard success response wrapping the data
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// SuccessWithMessage wraps data together with a human readable message
func SuccessWithMessage(data interface{}, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}

// Message returns a success response that carries only a message
func Message(message string) Response {
	return Response{Success: true, Message: message}
}

// Error returns a standard error response wrapping the error message
func Error(err string) Response {
	return Response{Success: false, Error: err}
}

// Page builds the paginated envelope
func Page(data interface{}, total, page, pageSize int) Paginated {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Paginated{
		Success:    true,
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Invalid is an error response that also reports the offending fields
func Invalid(err string, fields interface{}) Response {
	return Response{Success: false, Error: err, Data: fields}
}
