package service

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"sync"

	"user-panel/config"
	"user-panel/logger"
	"user-panel/util/common"

	"github.com/google/uuid"
)

const notifyQueueSize = 64

type resetNotice struct {
	RequestId string
	UserEmail string
}

// NotifyService delivers password-reset notifications to the panel admin.
// Delivery is fire-and-forget: a buffered queue feeds a single worker, and
// failures are logged but never reach the HTTP response path.
type NotifyService struct {
	queue chan resetNotice
	wg    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

func NewNotifyService() *NotifyService {
	return &NotifyService{
		queue: make(chan resetNotice, notifyQueueSize),
	}
}

// Start launches the delivery worker.
func (s *NotifyService) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer common.Recover("notify worker")
			for notice := range s.queue {
				if err := s.send(notice); err != nil {
					logger.Warningf("reset notification %s failed: %v", notice.RequestId, err)
				} else {
					logger.Infof("reset notification %s sent for %s", notice.RequestId, notice.UserEmail)
				}
			}
		}()
	})
}

// Stop closes the queue and waits for in-flight deliveries.
func (s *NotifyService) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		s.wg.Wait()
	})
}

// EnqueueResetRequest queues a notification that userEmail asked for a
// password reset. Returns the correlation id used in the logs. A full
// queue drops the notice with a warning rather than blocking the request.
func (s *NotifyService) EnqueueResetRequest(userEmail string) string {
	requestId := uuid.NewString()
	select {
	case s.queue <- resetNotice{RequestId: requestId, UserEmail: userEmail}:
	default:
		logger.Warningf("notify queue full, dropping reset notice %s for %s", requestId, userEmail)
	}
	CountResetRequest()
	return requestId
}

func (s *NotifyService) send(notice resetNotice) error {
	smtpHost := config.GetSMTPHost()
	if smtpHost == "" {
		logger.Debugf("smtp not configured, skipping reset notice %s", notice.RequestId)
		return nil
	}

	from := config.GetSMTPUser()
	to := config.GetAdminEmail()
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password Reset Request\r\n\r\n"+
		"User with email %s has requested a password reset. (request %s)\r\n",
		from, to, notice.UserEmail, notice.RequestId)

	addr := net.JoinHostPort(smtpHost, strconv.Itoa(config.GetSMTPPort()))
	auth := smtp.PlainAuth("", from, config.GetSMTPPass(), smtpHost)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(body))
}
