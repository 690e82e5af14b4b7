// internal/syntax/raw_data_block.go
//
// # Raw Data Block Parsing
//
// This file implements:
// - ParseRawDataBlock: Main entry point for parsing AAC frames
//
// The raw_data_block() is the core parsing loop that reads and dispatches
// all syntax elements (SCE, CPE, LFE, CCE, DSE, PCE, FIL) in an AAC frame.
//
// Ported from: ~/dev/faad2/libfaad/syntax.c:449-648
package syntax

import (
	"errors"

	"github.com/llehouerou/go-aac/internal/bits"
)

// ErrUnknownElementID is returned when id_syn_ele carries a reserved value.
var ErrUnknownElementID = errors.New("syntax: unknown syntax element id")

// RawDataBlockConfig holds configuration for raw data block parsing.
// Ported from: raw_data_block() parameters in ~/dev/faad2/libfaad/syntax.c:449-450
type RawDataBlockConfig struct {
	SFIndex              uint8  // Sample rate index (0-11)
	FrameLength          uint16 // Frame length (960 or 1024)
	ObjectType           uint8  // Audio object type
	ChannelConfiguration uint8  // Channel configuration (0-7)
}

// RawDataBlockResult collects every syntax element decoded from one
// raw_data_block(), in bitstream order within each element type.
type RawDataBlockResult struct {
	SCEs []*SCEResult
	CPEs []*CPEResult
	LFEs []*SCEResult
	CCEs []*CCEResult
	PCE  *ProgramConfig
	DRC  *DRCInfo
}

// ParseRawDataBlock parses raw_data_block(): the element loop that makes up
// one AAC access unit, dispatching on the 3-bit id_syn_element until it
// reaches ID_END.
//
// Ported from: raw_data_block() in ~/dev/faad2/libfaad/syntax.c:449-648
func ParseRawDataBlock(r *bits.Reader, cfg *RawDataBlockConfig) (*RawDataBlockResult, error) {
	result := &RawDataBlockResult{DRC: &DRCInfo{}}

	sceCfg := &SCEConfig{SFIndex: cfg.SFIndex, FrameLength: cfg.FrameLength, ObjectType: cfg.ObjectType}
	cpeCfg := &CPEConfig{SFIndex: cfg.SFIndex, FrameLength: cfg.FrameLength, ObjectType: cfg.ObjectType}
	cceCfg := &CCEConfig{SFIndex: cfg.SFIndex, FrameLength: cfg.FrameLength, ObjectType: cfg.ObjectType}

	for {
		id := ElementID(r.GetBits(LenSEID))

		switch id {
		case IDSCE:
			tag := uint8(r.GetBits(LenTag))
			sce, err := ParseSingleChannelElement(r, tag, sceCfg)
			if err != nil {
				return nil, err
			}
			result.SCEs = append(result.SCEs, sce)

		case IDCPE:
			tag := uint8(r.GetBits(LenTag))
			cpe, err := ParseChannelPairElement(r, tag, cpeCfg)
			if err != nil {
				return nil, err
			}
			result.CPEs = append(result.CPEs, cpe)

		case IDLFE:
			tag := uint8(r.GetBits(LenTag))
			lfe, err := ParseSingleChannelElement(r, tag, sceCfg)
			if err != nil {
				return nil, err
			}
			result.LFEs = append(result.LFEs, lfe)

		case IDCCE:
			cce, err := ParseCouplingChannelElement(r, cceCfg)
			if err != nil {
				return nil, err
			}
			result.CCEs = append(result.CCEs, cce)

		case IDDSE:
			ParseDataStreamElement(r)

		case IDPCE:
			pce, err := ParsePCE(r)
			if err != nil {
				return nil, err
			}
			result.PCE = pce

		case IDFIL:
			if err := ParseFillElement(r, result.DRC); err != nil {
				return nil, err
			}

		case IDEND:
			r.ByteAlign()
			return result, nil

		default:
			return nil, ErrUnknownElementID
		}

		if r.Error() {
			return nil, ErrBitstreamRead
		}
	}
}
