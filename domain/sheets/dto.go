package sheets

type SubmitEmailRequest struct {
	Email     string `json:"email" binding:"required"`
	Timestamp string `json:"timestamp" binding:"required"`
	Source    string `json:"source" binding:"required"`
}

func (r SubmitEmailRequest) row() []string {
	return []string{r.Email, r.Timestamp, r.Source}
}

type SubmitEmailResponse struct {
	Timestamp string `json:"timestamp"`
}

type SubmitEmailError struct {
	Error string `json:"error"`
}
