// decode.go
package aac

import (
	"github.com/llehouerou/go-aac/internal/bits"
	"github.com/llehouerou/go-aac/internal/output"
	"github.com/llehouerou/go-aac/internal/spectrum"
	"github.com/llehouerou/go-aac/internal/syntax"
	"github.com/llehouerou/go-aac/internal/tables"
)

// channelConfigMap maps the 3-bit ADTS/ASC channel_configuration field to an
// actual channel count. Index 0 (implicit, PCE-defined mapping) is left at 0:
// this decoder does not dry-decode a frame to recover the count, and Init2
// discards any PCE that the AudioSpecificConfig carries, so configuration 0
// streams report 0 channels.
//
// Source: ~/dev/faad2/libfaad/syntax.c channel configuration table.
var channelConfigMap = [8]uint8{0, 1, 2, 3, 4, 5, 6, 8}

func channelCountFromConfig(cfg uint8) uint8 {
	if int(cfg) < len(channelConfigMap) {
		return channelConfigMap[cfg]
	}
	return 0
}

// filterBanker is the minimal contract a registered filter bank must
// satisfy. internal/filterbank.FilterBank implements it; declaring it here
// rather than importing internal/filterbank directly keeps the historical
// factory-injection seam usable by tests (see RegisterFilterBankFactory).
type filterBanker interface {
	IFilterBank(windowSequence syntax.WindowSequence, windowShape, windowShapePrev uint8, freqIn, timeOut, overlap []float32)
}

// InitResult carries the outcome of Init/Init2.
type InitResult struct {
	BytesConsumed uint32
	SampleRate    uint32
	Channels      uint8
}

// Init parses an ADTS header from buffer and configures the decoder for the
// stream it describes. It does not decode any audio; call Decode per frame
// afterwards.
//
// Ported from: NeAACDecInit() in ~/dev/faad2/libfaad/decoder.c:585-719
func (d *Decoder) Init(buffer []byte) (*InitResult, error) {
	if d == nil {
		return nil, ErrNilDecoder
	}
	if buffer == nil {
		return nil, ErrNilBuffer
	}
	if len(buffer) < 2 {
		return nil, ErrBufferTooSmall
	}
	if len(buffer) >= 4 && string(buffer[:4]) == "ADIF" {
		// ADIF is out of scope; see SPEC_FULL.md §9 Open Question.
		return nil, ErrADIFNotSupported
	}

	r := bits.NewReader(buffer)
	if err := syntax.FindSyncword(r); err != nil {
		return nil, ErrADTSSyncwordNotFound
	}
	hdr, err := syntax.ParseADTSHeader(r)
	if err != nil {
		return nil, ErrADTSSyncwordNotFound
	}

	sr := tables.GetSampleRate(hdr.SFIndex)
	if sr == 0 {
		return nil, ErrInvalidSampleRate
	}

	d.adtsHeaderPresent = true
	d.adifHeaderPresent = false
	d.sfIndex = hdr.SFIndex
	d.objectType = hdr.Profile + 1
	d.channelConfiguration = hdr.ChannelConfiguration
	d.frameLength = 1024

	return &InitResult{
		BytesConsumed: uint32(hdr.HeaderSize()),
		SampleRate:    sr,
		Channels:      channelCountFromConfig(d.channelConfiguration),
	}, nil
}

// SimpleInit is Init with a return shape convenient for callers that only
// need the stream's sample rate and channel count.
func (d *Decoder) SimpleInit(buffer []byte) (sampleRate uint32, channels uint8, err error) {
	res, err := d.Init(buffer)
	if err != nil {
		return 0, 0, err
	}
	return res.SampleRate, res.Channels, nil
}

// Init2 configures the decoder from a raw MP4 AudioSpecificConfig, for
// streams transported without ADTS framing.
//
// Ported from: NeAACDecInit2() in ~/dev/faad2/libfaad/decoder.c:722-846
func (d *Decoder) Init2(ascBuffer []byte) (*InitResult, error) {
	if d == nil {
		return nil, ErrNilDecoder
	}
	if ascBuffer == nil {
		return nil, ErrNilBuffer
	}

	asc, _, err := syntax.ParseASC(ascBuffer)
	if err != nil {
		return nil, ErrUnsupportedObjectType
	}

	d.adtsHeaderPresent = false
	d.adifHeaderPresent = false
	d.sfIndex = asc.SamplingFrequencyIndex
	d.objectType = asc.ObjectTypeIndex
	d.channelConfiguration = asc.ChannelsConfiguration
	if asc.FrameLengthFlag {
		d.frameLength = 960
	} else {
		d.frameLength = 1024
	}

	return &InitResult{
		SampleRate: asc.SamplingFrequency,
		Channels:   channelCountFromConfig(d.channelConfiguration),
	}, nil
}

// SimpleInit2 is Init2 with the simplified return shape.
func (d *Decoder) SimpleInit2(ascBuffer []byte) (sampleRate uint32, channels uint8, err error) {
	res, err := d.Init2(ascBuffer)
	if err != nil {
		return 0, 0, err
	}
	return res.SampleRate, res.Channels, nil
}

// Decode decodes one AAC frame and returns PCM samples.
//
// Parameters:
//   - buffer: Input AAC frame data
//
// Returns:
//   - samples: Interleaved PCM samples (type depends on Config.OutputFormat)
//   - info: Frame information (channels, sample rate, bytes consumed, etc.)
//   - err: Error if decoding fails
//
// The decoder must be initialized with Init() or Init2() before calling
// Decode(). Each call processes exactly one frame; for ADTS streams the ADTS
// header is parsed automatically.
//
// The first frame returns zero samples due to the overlap-add delay,
// matching FAAD2 behavior (decoder.c:1204-1206).
//
// Ported from: aac_frame_decode() in ~/dev/faad2/libfaad/decoder.c:848-1255
func (d *Decoder) Decode(buffer []byte) (interface{}, *FrameInfo, error) {
	if d == nil {
		return nil, nil, ErrNilDecoder
	}
	if buffer == nil {
		return nil, nil, ErrNilBuffer
	}
	if len(buffer) == 0 {
		return nil, nil, ErrBufferTooSmall
	}

	info := &FrameInfo{ObjectType: ObjectType(d.objectType)}

	// ID3v1 tag (128 bytes starting with "TAG").
	// Ported from: decoder.c:901-910
	if len(buffer) >= 128 && buffer[0] == 'T' && buffer[1] == 'A' && buffer[2] == 'G' {
		info.BytesConsumed = 128
		return nil, info, nil
	}

	r := bits.NewReader(buffer)

	switch {
	case d.adtsHeaderPresent:
		info.HeaderType = HeaderTypeADTS
		if err := syntax.FindSyncword(r); err != nil {
			return nil, info, ErrADTSSyncwordNotFound
		}
		hdr, err := syntax.ParseADTSHeader(r)
		if err != nil {
			return nil, info, ErrADTSSyncwordNotFound
		}
		d.sfIndex = hdr.SFIndex
		d.objectType = hdr.Profile + 1
		d.channelConfiguration = hdr.ChannelConfiguration
		info.ObjectType = ObjectType(d.objectType)
		// A truncated ADTS frame (header with no payload, e.g. a bare
		// syncword probe) cannot carry a raw_data_block: bits.Reader pads
		// reads past the buffer's end with zero bits rather than erroring,
		// so parsing on would silently manufacture phantom elements instead
		// of failing. Bail out here using the length the header itself
		// declares.
		if hdr.DataSize() <= 0 {
			info.BytesConsumed = uint32(hdr.HeaderSize())
			return nil, info, ErrInputBufferTooSmall
		}
	case d.adifHeaderPresent:
		info.HeaderType = HeaderTypeADIF
	default:
		info.HeaderType = HeaderTypeRAW
	}

	if d.fb == nil && filterBankFactory != nil {
		d.fb = filterBankFactory(d.frameLength)
	}
	if d.pnsState == nil {
		d.pnsState = spectrum.NewPNSState()
	}

	cfg := &syntax.RawDataBlockConfig{
		SFIndex:              d.sfIndex,
		FrameLength:          d.frameLength,
		ObjectType:           d.objectType,
		ChannelConfiguration: d.channelConfiguration,
	}
	result, err := syntax.ParseRawDataBlock(r, cfg)
	if err != nil {
		return nil, info, err
	}

	isFirstFrame := d.frame == 0
	d.frame++

	numElements := len(result.SCEs) + len(result.CPEs) + len(result.LFEs)
	totalChannels := uint8(len(result.SCEs) + len(result.LFEs) + 2*len(result.CPEs))
	d.frChEle = uint8(numElements)
	d.frChannels = totalChannels

	info.BytesConsumed = r.GetProcessedBits() / 8
	info.Channels = totalChannels
	info.SampleRate = tables.GetSampleRate(d.sfIndex)
	d.createChannelConfig(info)

	if totalChannels == 0 {
		return nil, info, nil
	}
	if err := d.allocateChannelBuffers(totalChannels); err != nil {
		return nil, info, err
	}

	ch := uint8(0)
	for _, sce := range result.SCEs {
		if err := d.reconstructSingle(ch, sce); err != nil {
			return nil, info, err
		}
		ch++
	}
	for _, cpe := range result.CPEs {
		if err := d.reconstructPair(ch, cpe); err != nil {
			return nil, info, err
		}
		ch += 2
	}
	for _, lfe := range result.LFEs {
		if err := d.reconstructSingle(ch, lfe); err != nil {
			return nil, info, err
		}
		ch++
	}

	if isFirstFrame {
		return nil, info, nil
	}
	return d.generatePCMOutput(totalChannels), info, nil
}

func (d *Decoder) reconstructSingle(ch uint8, sce *syntax.SCEResult) error {
	specData := make([]float64, d.frameLength)
	rcfg := &spectrum.ReconstructSingleChannelConfig{
		ICS:             &sce.Element.ICS1,
		Element:         &sce.Element,
		FrameLength:     d.frameLength,
		ObjectType:      tables.ObjectType(d.objectType),
		SRIndex:         d.sfIndex,
		WindowShape:     sce.Element.ICS1.WindowShape,
		WindowShapePrev: d.windowShapePrev[ch],
		PNSState:        d.pnsState,
	}
	if err := spectrum.ReconstructSingleChannel(sce.SpecData, specData, rcfg); err != nil {
		return err
	}
	d.runFilterBank(ch, sce.Element.ICS1.WindowSequence, sce.Element.ICS1.WindowShape, specData)
	d.windowShapePrev[ch] = sce.Element.ICS1.WindowShape
	return nil
}

func (d *Decoder) reconstructPair(ch uint8, cpe *syntax.CPEResult) error {
	spec1 := make([]float64, d.frameLength)
	spec2 := make([]float64, d.frameLength)
	rcfg := &spectrum.ReconstructChannelPairConfig{
		ICS1:             &cpe.Element.ICS1,
		ICS2:             &cpe.Element.ICS2,
		Element:          &cpe.Element,
		FrameLength:      d.frameLength,
		ObjectType:       tables.ObjectType(d.objectType),
		SRIndex:          d.sfIndex,
		WindowShape1:     cpe.Element.ICS1.WindowShape,
		WindowShapePrev1: d.windowShapePrev[ch],
		WindowShape2:     cpe.Element.ICS2.WindowShape,
		WindowShapePrev2: d.windowShapePrev[ch+1],
		PNSState:         d.pnsState,
	}
	if err := spectrum.ReconstructChannelPair(cpe.SpecData1, cpe.SpecData2, spec1, spec2, rcfg); err != nil {
		return err
	}
	d.runFilterBank(ch, cpe.Element.ICS1.WindowSequence, cpe.Element.ICS1.WindowShape, spec1)
	d.runFilterBank(ch+1, cpe.Element.ICS2.WindowSequence, cpe.Element.ICS2.WindowShape, spec2)
	d.windowShapePrev[ch] = cpe.Element.ICS1.WindowShape
	d.windowShapePrev[ch+1] = cpe.Element.ICS2.WindowShape
	return nil
}

// runFilterBank drives the IMDCT/windowing/overlap-add for one channel and
// leaves the result in d.timeOut[ch]; d.fbIntermed[ch] doubles as that
// channel's persistent overlap buffer across calls.
func (d *Decoder) runFilterBank(ch uint8, ws syntax.WindowSequence, shape uint8, specData []float64) {
	fb, ok := d.fb.(filterBanker)
	if !ok {
		return
	}
	freqIn := make([]float32, len(specData))
	for i, v := range specData {
		freqIn[i] = float32(v)
	}
	fb.IFilterBank(ws, shape, d.windowShapePrev[ch], freqIn, d.timeOut[ch], d.fbIntermed[ch])
}

// createChannelConfig fills in the FrameInfo channel-position fields from
// the decoder's configured channel_configuration.
//
// Ported from: create_channel_config() in ~/dev/faad2/libfaad/syntax.c
func (d *Decoder) createChannelConfig(info *FrameInfo) {
	n := channelCountFromConfig(d.channelConfiguration)
	if n > maxChannels {
		n = maxChannels
	}
	info.NumFrontChannels = n
	for i := uint8(0); i < n && int(i) < len(info.ChannelPosition); i++ {
		switch {
		case n == 1 && i == 0:
			info.ChannelPosition[i] = ChannelFrontCenter
		case i == 0:
			info.ChannelPosition[i] = ChannelFrontLeft
		case i == 1:
			info.ChannelPosition[i] = ChannelFrontRight
		default:
			info.ChannelPosition[i] = ChannelUnknown
		}
	}
}

// generatePCMOutput interleaves the per-channel time-domain buffers into the
// output type selected by Config.OutputFormat.
//
// Ported from: output_to_PCM() in ~/dev/faad2/libfaad/output.c:68-219
func (d *Decoder) generatePCMOutput(channels uint8) interface{} {
	n := int(d.frameLength)
	switch d.config.OutputFormat {
	case OutputFormatFloat:
		out := make([]float32, n*int(channels))
		for ch := uint8(0); ch < channels; ch++ {
			buf := d.timeOut[ch]
			for i := 0; i < n && buf != nil; i++ {
				out[i*int(channels)+int(ch)] = buf[i] * output.FloatScale
			}
		}
		return out
	case OutputFormatDouble:
		out := make([]float64, n*int(channels))
		for ch := uint8(0); ch < channels; ch++ {
			buf := d.timeOut[ch]
			for i := 0; i < n && buf != nil; i++ {
				out[i*int(channels)+int(ch)] = float64(buf[i]) * float64(output.FloatScale)
			}
		}
		return out
	default:
		out := make([]int16, n*int(channels))
		for ch := uint8(0); ch < channels; ch++ {
			buf := d.timeOut[ch]
			for i := 0; i < n && buf != nil; i++ {
				out[i*int(channels)+int(ch)] = clipToInt16(buf[i])
			}
		}
		return out
	}
}

func clipToInt16(x float32) int16 {
	switch {
	case x >= 32767:
		return 32767
	case x <= -32768:
		return -32768
	default:
		return int16(x)
	}
}

func getSampleRate(sfIndex uint8) uint32 {
	return tables.GetSampleRate(sfIndex)
}

// DecodeInt16 decodes one frame and returns interleaved 16-bit PCM samples.
func (d *Decoder) DecodeInt16(buffer []byte) ([]int16, error) {
	prev := d.config.OutputFormat
	d.config.OutputFormat = OutputFormat16Bit
	samples, _, err := d.Decode(buffer)
	d.config.OutputFormat = prev
	if err != nil {
		return nil, err
	}
	if samples == nil {
		return nil, nil
	}
	return samples.([]int16), nil
}

// DecodeFloat32 decodes one frame and returns interleaved float32 PCM
// samples normalized to [-1.0, 1.0].
func (d *Decoder) DecodeFloat32(buffer []byte) ([]float32, error) {
	prev := d.config.OutputFormat
	d.config.OutputFormat = OutputFormatFloat
	samples, _, err := d.Decode(buffer)
	d.config.OutputFormat = prev
	if err != nil {
		return nil, err
	}
	if samples == nil {
		return nil, nil
	}
	return samples.([]float32), nil
}

// DecodeFloat decodes one frame in float32 output mode, restoring the
// decoder's configured output format afterward, and returns the detailed
// FrameInfo alongside the samples.
func (d *Decoder) DecodeFloat(buffer []byte) (interface{}, *FrameInfo, error) {
	prev := d.config.OutputFormat
	d.config.OutputFormat = OutputFormatFloat
	samples, info, err := d.Decode(buffer)
	d.config.OutputFormat = prev
	return samples, info, err
}
