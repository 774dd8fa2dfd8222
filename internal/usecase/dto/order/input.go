package orderdto

type StudentInfoInput struct {
	Name  string `json:"name" validate:"required"`
	ID    string `json:"id" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type CreateCollectOrderInput struct {
	StudentInfo StudentInfoInput `json:"student_info" validate:"required"`
	OrderAmount float64          `json:"order_amount" validate:"required,gt=0"`
	SchoolID    string           `json:"school_id"`
	TrusteeID   string           `json:"trustee_id"`
	CallbackURL string           `json:"callback_url"`
}
