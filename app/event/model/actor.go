package model

// Actor 发起操作的已登录用户
type Actor struct {
	ID       string
	Name     string
	PhotoURL string
	Email    string
}
