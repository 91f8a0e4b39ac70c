package dto

// SetItemStatusRequest changes the checklist status of a primary agenda item.
type SetItemStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETED REFUSED"`
}
