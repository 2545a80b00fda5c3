package domain

import "time"

// Image is a live gallery row. The payload is stored inline as an opaque
// byte sequence; nothing in the service interprets or transcodes it.
type Image struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Data       []byte    `gorm:"column:data;not null" json:"-"`
	OwnerID    string    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (Image) TableName() string { return "images" }

// ArchivedImage is an image moved out of the live table by a delete.
// It keeps the original id so recover can restore the row unchanged, which
// is why it lives in its own table: live and archived ids never collide
// except during the window between the two writes of a move.
type ArchivedImage struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Data       []byte    `gorm:"column:data;not null" json:"-"`
	OwnerID    string    `gorm:"column:owner_id;not null;index" json:"owner_id"`
	UploadedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
	DeletedAt  time.Time `gorm:"column:deleted_at;not null" json:"deleted_at"`
}

func (ArchivedImage) TableName() string { return "deleted_images" }
