package server

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// FrameType tags every websocket frame.
type FrameType uint64

const (
	FrameSessionCreated   FrameType = 1
	FrameSessionDestroyed FrameType = 2
	FrameTick             FrameType = 3
	FrameLevelChanged     FrameType = 4
	FrameVehicleAdded     FrameType = 5
	FrameVehicleRemoved   FrameType = 6
	FrameSearchMode       FrameType = 7
	FrameStat             FrameType = 8
	FramePatrolAdded      FrameType = 9
	FramePatrolRemoved    FrameType = 10
	FrameQuery            FrameType = 20
	FrameReply            FrameType = 30
	FrameCommand          FrameType = 40
)

// QueryKind selects what a FrameQuery asks for.
type QueryKind uint64

const (
	QueryCanSpawnPursuer   QueryKind = 1
	QueryNextPursuerKind   QueryKind = 2
	QueryNextRoadblockKind QueryKind = 3
	QueryCanSpawnPatrol    QueryKind = 4
	QueryNextPatrolKind    QueryKind = 5
	QueryDrainEscalation   QueryKind = 6
	QueryPendingEscalation QueryKind = 7
)

// CommandKind selects what a FrameCommand asks the game to do.
type CommandKind uint64

const (
	CommandSupportStrategy CommandKind = 1
	CommandLeaderStrategy  CommandKind = 2
	CommandForceFlee       CommandKind = 3
	CommandSpawnHelicopter CommandKind = 4
)

// Frame is the flat message carried by every websocket frame. Which fields
// matter depends on Type; zero fields are not encoded.
type Frame struct {
	Type    FrameType
	Session uint32
	Vehicle uint32
	Kind    string // vehicle kind, strategy or leader name
	Site    uint32
	Now     float64
	Mode    uint32
	Level   uint32
	Flag    bool // searching, or a boolean reply
	Stat    uint32
	Value   float64
	Request uint64
	Query   QueryKind
	Command CommandKind
}

const (
	fieldType    protowire.Number = 1
	fieldSession protowire.Number = 2
	fieldVehicle protowire.Number = 3
	fieldKind    protowire.Number = 4
	fieldSite    protowire.Number = 5
	fieldNow     protowire.Number = 6
	fieldMode    protowire.Number = 7
	fieldLevel   protowire.Number = 8
	fieldFlag    protowire.Number = 9
	fieldStat    protowire.Number = 10
	fieldValue   protowire.Number = 11
	fieldRequest protowire.Number = 12
	fieldQuery   protowire.Number = 13
	fieldCommand protowire.Number = 14
)

var errNoType = errors.New("frame has no type")

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// EncodeFrame serialises f in protobuf wire format.
func EncodeFrame(f Frame) []byte {
	var b []byte
	b = appendVarint(b, fieldType, uint64(f.Type))
	b = appendVarint(b, fieldSession, uint64(f.Session))
	b = appendVarint(b, fieldVehicle, uint64(f.Vehicle))
	if f.Kind != "" {
		b = protowire.AppendTag(b, fieldKind, protowire.BytesType)
		b = protowire.AppendString(b, f.Kind)
	}
	b = appendVarint(b, fieldSite, uint64(f.Site))
	b = appendDouble(b, fieldNow, f.Now)
	b = appendVarint(b, fieldMode, uint64(f.Mode))
	b = appendVarint(b, fieldLevel, uint64(f.Level))
	if f.Flag {
		b = appendVarint(b, fieldFlag, 1)
	}
	b = appendVarint(b, fieldStat, uint64(f.Stat))
	b = appendDouble(b, fieldValue, f.Value)
	b = appendVarint(b, fieldRequest, f.Request)
	b = appendVarint(b, fieldQuery, uint64(f.Query))
	b = appendVarint(b, fieldCommand, uint64(f.Command))
	return b
}

// DecodeFrame parses one frame. Unknown fields are skipped.
func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Frame{}, fmt.Errorf("decode tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case typ == protowire.VarintType && isVarintField(num):
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Frame{}, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
			}
			setVarint(&f, num, v)
			b = b[n:]
		case typ == protowire.Fixed64Type && (num == fieldNow || num == fieldValue):
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return Frame{}, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
			}
			if num == fieldNow {
				f.Now = math.Float64frombits(v)
			} else {
				f.Value = math.Float64frombits(v)
			}
			b = b[n:]
		case typ == protowire.BytesType && num == fieldKind:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return Frame{}, fmt.Errorf("decode field %d: %w", num, protowire.ParseError(n))
			}
			f.Kind = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Frame{}, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if f.Type == 0 {
		return Frame{}, errNoType
	}
	return f, nil
}

func isVarintField(num protowire.Number) bool {
	switch num {
	case fieldType, fieldSession, fieldVehicle, fieldSite, fieldMode, fieldLevel,
		fieldFlag, fieldStat, fieldRequest, fieldQuery, fieldCommand:
		return true
	}
	return false
}

func setVarint(f *Frame, num protowire.Number, v uint64) {
	switch num {
	case fieldType:
		f.Type = FrameType(v)
	case fieldSession:
		f.Session = uint32(v)
	case fieldVehicle:
		f.Vehicle = uint32(v)
	case fieldSite:
		f.Site = uint32(v)
	case fieldMode:
		f.Mode = uint32(v)
	case fieldLevel:
		f.Level = uint32(v)
	case fieldFlag:
		f.Flag = v != 0
	case fieldStat:
		f.Stat = uint32(v)
	case fieldRequest:
		f.Request = v
	case fieldQuery:
		f.Query = QueryKind(v)
	case fieldCommand:
		f.Command = CommandKind(v)
	}
}
