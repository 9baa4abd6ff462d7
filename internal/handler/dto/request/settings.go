package request

// UpdateSettingsRequest carries a partial settings payload; only the keys
// present are touched.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
