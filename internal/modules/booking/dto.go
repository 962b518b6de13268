package booking

type CreateBookingRequest struct {
	KostID       int64  `json:"kost_id" binding:"required"`
	CheckInDate  string `json:"check_in_date" binding:"required"` // YYYY-MM-DD
	DurationType string `json:"duration_type" binding:"required"`
	Duration     int    `json:"duration" binding:"required,gte=1"`
	GuestName    string `json:"guest_name" binding:"required"`
	GuestEmail   string `json:"guest_email" binding:"required,email"`
	GuestPhone   string `json:"guest_phone" binding:"required"`
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}
