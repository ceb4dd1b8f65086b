package errors

const genericMessage = "An unexpected error occurred"

// HTTPStatusCode maps err to a response status; anything unrecognised is a 500.
func HTTPStatusCode(err error) int {
	if status, ok := kindStatus[GetErrorType(err)]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetHumanReadableMessage never exposes the text of non-AppError causes.
func GetHumanReadableMessage(err error) string {
	if appErr, ok := asAppError(err); ok {
		return appErr.Message
	}
	return genericMessage
}
