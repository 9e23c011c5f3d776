package models

// ActivityModel is one append-only audit row: who did what to which
// entity. Written as a pipeline side effect, read only by the reporting
// endpoint.
type ActivityModel struct {
	Base
	ActorID     string     `json:"actor_id"    gorm:"index;not null"`
	Actor       *UserModel `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
	RefType     RefType    `json:"ref_type"    gorm:"not null;index:idx_activity_ref"`
	RefID       string     `json:"ref_id"      gorm:"not null;index:idx_activity_ref"`
	Description string     `json:"description" gorm:"not null"`
}

func (ActivityModel) TableName() string { return "activities" }
