package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// QueueType enumerates the shaping algorithm (spec §3).
type QueueType string

const (
	QueueTypeUnknown   QueueType = ""
	QueueTypeSingleRate QueueType = "single-rate"
	QueueTypeTwoRate    QueueType = "two-rate"
)

// QueueColor enumerates the drop-precedence color.
type QueueColor string

const (
	QueueColorUnknown QueueColor = ""
	QueueColorGreen   QueueColor = "green"
	QueueColorYellow  QueueColor = "yellow"
	QueueColorRed     QueueColor = "red"
)

// Queue is the attribute record for the queue kind. ExcessBurstSize is
// meaningful only for QueueTypeSingleRate; PeakBurstSize/PeakInformationRate
// only for QueueTypeTwoRate (spec §3).
type Queue struct {
	Type                     QueueType
	ID                       uint32
	Priority                 uint16
	Color                    QueueColor
	CommittedBurstSize       uint64
	CommittedInformationRate uint64
	ExcessBurstSize          uint64
	PeakBurstSize            uint64
	PeakInformationRate      uint64
}

func CreateDefaultQueue() *Queue {
	return &Queue{
		Type:  QueueTypeUnknown,
		Color: QueueColorGreen,
	}
}

func (a *Queue) SetType(t QueueType) *apperrors.AppError {
	switch t {
	case QueueTypeSingleRate, QueueTypeTwoRate:
		a.Type = t
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown queue type %q", t)
	}
}

func (a *Queue) SetID(v uint32) *apperrors.AppError {
	a.ID = v
	return nil
}

func (a *Queue) SetPriority(v uint16) *apperrors.AppError {
	a.Priority = v
	return nil
}

func (a *Queue) SetColor(c QueueColor) *apperrors.AppError {
	switch c {
	case QueueColorGreen, QueueColorYellow, QueueColorRed:
		a.Color = c
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown queue color %q", c)
	}
}

func (a *Queue) SetCommittedBurstSize(v uint64) *apperrors.AppError {
	a.CommittedBurstSize = v
	return nil
}

func (a *Queue) SetCommittedInformationRate(v uint64) *apperrors.AppError {
	a.CommittedInformationRate = v
	return nil
}

func (a *Queue) SetExcessBurstSize(v uint64) *apperrors.AppError {
	if a.Type != QueueTypeSingleRate {
		return apperrors.ErrInvalidObjectf("excess-burst-size only applies to single-rate queues")
	}
	a.ExcessBurstSize = v
	return nil
}

func (a *Queue) SetPeakBurstSize(v uint64) *apperrors.AppError {
	if a.Type != QueueTypeTwoRate {
		return apperrors.ErrInvalidObjectf("peak-burst-size only applies to two-rate queues")
	}
	a.PeakBurstSize = v
	return nil
}

func (a *Queue) SetPeakInformationRate(v uint64) *apperrors.AppError {
	if a.Type != QueueTypeTwoRate {
		return apperrors.ErrInvalidObjectf("peak-information-rate only applies to two-rate queues")
	}
	a.PeakInformationRate = v
	return nil
}

func EqualsQueue(a, b *Queue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EqualsWithoutNamesQueue is identical to EqualsQueue: the kind carries no
// name-list fields.
func EqualsWithoutNamesQueue(a, b *Queue) bool {
	return EqualsQueue(a, b)
}

func DuplicateQueue(a *Queue) *Queue {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

func DuplicateQueueWithNamespace(a *Queue, _ string) *Queue {
	return DuplicateQueue(a)
}
