package listing

type CreateKostRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description"`
	Address      string   `json:"address" binding:"required"`
	City         string   `json:"city" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	PriceWeekly  *float64 `json:"price_weekly"`
	PriceMonthly float64  `json:"price_monthly" binding:"required,gt=0"`
	PriceYearly  *float64 `json:"price_yearly"`
	TotalRooms   int      `json:"total_rooms" binding:"required,gte=1"`
}

type SearchQuery struct {
	City     string
	PriceMin *float64
	PriceMax *float64
	OnlyFree bool
	Limit    int
	Offset   int
}
