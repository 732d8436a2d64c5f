package cron

import (
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/job"

	"github.com/robfig/cron/v3"
)

const defaultMindshareSpec = "0 0 * * * *"

type Manager struct {
	engine        *cron.Cron
	mindshareJob  *job.MindshareJob
	mindshareSpec string
}

func NewCronManager(mindshareJob *job.MindshareJob, mindshareSpec string) *Manager {
	if mindshareSpec == "" {
		mindshareSpec = defaultMindshareSpec
	}
	return &Manager{
		engine:        cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		mindshareJob:  mindshareJob,
		mindshareSpec: mindshareSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.mindshareSpec, s.mindshareJob); err != nil {
		return err
	}
	log.Info("mindshare job registered", "spec", s.mindshareSpec)
	return nil
}

func (s *Manager) Start() {
	log.Info("cron engine started")
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("cron engine stopping")
	<-s.engine.Stop().Done()
}
