package admin

type RejectKostRequest struct {
	Reason string `json:"reason" binding:"required"`
}
