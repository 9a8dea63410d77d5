package attr

import (
	"net"

	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// ChannelProtocol enumerates the transport used to reach the controller.
type ChannelProtocol string

const (
	ChannelProtocolUnknown ChannelProtocol = ""
	ChannelProtocolTCP     ChannelProtocol = "tcp"
	ChannelProtocolTLS     ChannelProtocol = "tls"
)

// Channel is the attribute record for the channel kind (leaf; no
// cross-references).
type Channel struct {
	DstAddr  string
	DstPort  uint16
	Protocol ChannelProtocol
}

func CreateDefaultChannel() *Channel {
	return &Channel{Protocol: ChannelProtocolTCP}
}

func (a *Channel) SetDstAddr(v string) *apperrors.AppError {
	if net.ParseIP(v) == nil {
		return apperrors.ErrInvalidArgsf("dst-addr %q is not a valid IP address", v)
	}
	a.DstAddr = v
	return nil
}

func (a *Channel) SetDstPort(v int) *apperrors.AppError {
	if v < 1 {
		return apperrors.ErrTooShortf("dst-port %d below minimum 1", v)
	}
	if v > 0xffff {
		return apperrors.ErrTooLongf("dst-port %d above maximum 65535", v)
	}
	a.DstPort = uint16(v)
	return nil
}

func (a *Channel) SetProtocol(p ChannelProtocol) *apperrors.AppError {
	switch p {
	case ChannelProtocolTCP, ChannelProtocolTLS:
		a.Protocol = p
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown channel protocol %q", p)
	}
}

func EqualsChannel(a, b *Channel) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func EqualsWithoutNamesChannel(a, b *Channel) bool {
	return EqualsChannel(a, b)
}

func DuplicateChannel(a *Channel) *Channel {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

func DuplicateChannelWithNamespace(a *Channel, _ string) *Channel {
	return DuplicateChannel(a)
}
