package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeisme/shipdocs/pkg/internal/model"
)

// JobRepo 对 jobs 表的只读访问.
type JobRepo struct {
	db *gorm.DB
}

// NewJobRepo 创建 job 仓储.
func NewJobRepo(c *Client) *JobRepo {
	return &JobRepo{db: c.DB}
}

// JobExists 判断 job 是否存在.
func (r *JobRepo) JobExists(ctx context.Context, jobID uint) (bool, error) {
	var n int64

	if err := r.db.WithContext(ctx).Model(&model.Job{}).Where("id = ?", jobID).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}
