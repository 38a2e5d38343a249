package user

import "time"

// User хранится в таблице users, но ни один обработчик его пока не использует
type User struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" db:"username" gorm:"size:80;not null;uniqueIndex"`
	Email     string    `json:"email" db:"email" gorm:"size:120;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (User) TableName() string {
	return "users"
}
