package constants

// Keys of the shared response envelope. Endpoints that return a DTO
// (tokens, profiles) serialize it directly instead.
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
)

// BuildErrorResponse shapes an error body as {message, details?}.
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}
	if details != nil {
		response[ResponseFieldDetails] = details
	}
	return response
}

// BuildSuccessResponse shapes an acknowledgement body as {message}.
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{ResponseFieldMessage: message}
}
