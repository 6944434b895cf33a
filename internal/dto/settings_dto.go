package dto

type UpdateSettingsRequest struct {
	Model         *string `json:"model" validate:"omitempty"`
	TopK          *int    `json:"top_k" validate:"omitempty,min=1,max=32"`
	ContextBudget *int    `json:"context_budget" validate:"omitempty,min=500,max=32000"`
}

type SettingsResponse struct {
	Model         string   `json:"model"`
	TopK          int      `json:"top_k"`
	ContextBudget int      `json:"context_budget"`
	AllowedModels []string `json:"allowed_models"`
}
