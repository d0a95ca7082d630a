package marketplace

// CreateAdInput is the body of POST /ads.
type CreateAdInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Cost        int64  `json:"cost" validate:"required,gt=0,lte=1000000000000"`
	// Draft keeps the ad out of the public listing until it is published.
	Draft bool `json:"draft"`
}

// UpdateAdInput is the body of PUT /ads/:id. Nil fields stay unchanged.
type UpdateAdInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Cost        *int64  `json:"cost" validate:"omitempty,gt=0,lte=1000000000000"`
}

// ReviewInput is the body of POST /ads/:ad/reviews.
type ReviewInput struct {
	Description string `json:"description" validate:"max=2000"`
	Score       int    `json:"score" validate:"required,gte=1,lte=5"`
}
