package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeisme/shipdocs/pkg/scheduler"
)

// SchedulerHandlers 定时任务管理接口.
type SchedulerHandlers struct {
	sched *scheduler.Scheduler
}

// NewSchedulerHandlers 创建定时任务处理器.
func NewSchedulerHandlers(sched *scheduler.Scheduler) *SchedulerHandlers {
	return &SchedulerHandlers{sched: sched}
}

// Jobs 返回所有调度器任务信息.
func (h *SchedulerHandlers) Jobs() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"jobs": h.sched.GetJobInfos()})
	}
}

// RemoveJob 根据 id 删除任务.
func (h *SchedulerHandlers) RemoveJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Error: "invalid job id", Field: "id"})
			return
		}

		if err := h.sched.RemoveJob(id); err != nil {
			c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "job removed"})
	}
}

// QueueWaiting 返回队列中等待的任务数.
func (h *SchedulerHandlers) QueueWaiting() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"waiting": h.sched.JobsWaitingInQueue()})
	}
}
