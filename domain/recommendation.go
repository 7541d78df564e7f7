package domain

// CREATE TABLE public.break_recommendations (
//     cluster_id  INTEGER PRIMARY KEY,
//     level       TEXT NOT NULL,
//     text        TEXT NOT NULL,
//     updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
// );

type RecommendationTier struct {
	ClusterID int    `json:"cluster_id" gorm:"column:cluster_id;primaryKey"`
	Level     string `json:"level" gorm:"column:level"`
	Text      string `json:"text" gorm:"column:text"`
}

func (RecommendationTier) TableName() string {
	return "break_recommendations"
}
