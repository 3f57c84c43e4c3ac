package model

type DeleteUsersReq struct {
	AccountIDs []AccountID `json:"account_ids" validate:"dive,required,numeric"`
	ChunkSize  int         `json:"chunk_size" validate:"gt=0"`
	// Token is the fkey to submit with; empty means fetch it from the site.
	Token string `json:"-"`
}

func (r *DeleteUsersReq) Validate() error {
	if err := GetValidator().Struct(r); err != nil {
		return FormatValidationError(err)
	}
	return nil
}
