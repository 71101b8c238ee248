package domain

import "time"

type Passenger struct {
	ID         string
	Username   string
	Password   string
	Firstname  string
	Lastname   string
	Patronymic string
	Birthdate  string
	Series     string
	CreatedAt  time.Time
}

// IdentityClaim carries the passport fields a passenger supplies at the
// check-in desk. Matching is exact string equality on all five fields;
// callers must supply canonicalized values.
type IdentityClaim struct {
	Firstname  string `json:"firstname"`
	Lastname   string `json:"lastname"`
	Patronymic string `json:"patronymic"`
	Birthdate  string `json:"birthdate"`
	Series     string `json:"series"`
}
