package dto

// Response 统一成功返回
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorResponse 统一失败返回
type ErrorResponse struct {
	Status      string   `json:"status"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	ValidValues []string `json:"validValues,omitempty"`
}
