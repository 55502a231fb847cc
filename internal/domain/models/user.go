package models

// User представляет владельца магазинов (админа панели)
type User struct {
	ID       int64
	Email    string
	PassHash []byte
}
