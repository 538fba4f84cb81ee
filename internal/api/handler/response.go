package handler

// Every response body carries an "ok" flag. Successful reads and creates wrap
// the payload in "data"; deletes return a "message"; failures return "error".

type dataResponse[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope shared with the central error handler.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func ok[T any](data T) dataResponse[T] {
	return dataResponse[T]{OK: true, Data: data}
}

func done(message string) messageResponse {
	return messageResponse{OK: true, Message: message}
}

// Failure builds the error envelope for msg.
func Failure(msg string) ErrorResponse {
	return ErrorResponse{OK: false, Error: msg}
}
