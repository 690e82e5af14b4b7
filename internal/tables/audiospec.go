// internal/tables/audiospec.go
//
// ObjectType and AudioSpecificConfig live here (rather than in the root aac
// package) so that internal/syntax and internal/spectrum can reference them
// without importing the root package. internal/tables imports no other
// package of this module, so this is the bottom of the dependency graph; the root aac
// package re-exports both as type aliases.
//
// Source: ~/dev/faad2/include/neaacdec.h:74-83, 140-161
package tables

// ObjectType represents an AAC audio object type.
type ObjectType uint8

// AAC Object Types.
const (
	ObjectTypeMain    ObjectType = 1
	ObjectTypeLC      ObjectType = 2  // Most common - Low Complexity
	ObjectTypeSSR     ObjectType = 3  // Scalable Sample Rate
	ObjectTypeLTP     ObjectType = 4  // Long Term Prediction
	ObjectTypeHEAAC   ObjectType = 5  // High Efficiency AAC (with SBR)
	ObjectTypeERLC    ObjectType = 17 // Error Resilient LC
	ObjectTypeERLTP   ObjectType = 19 // Error Resilient LTP
	ObjectTypeLD      ObjectType = 23 // Low Delay
	ObjectTypeDRMERLC ObjectType = 27 // DRM specific
)

// AudioSpecificConfig contains the MP4 AudioSpecificConfig data.
// Source: ~/dev/faad2/include/neaacdec.h:140-161
type AudioSpecificConfig struct {
	// Audio Specific Info
	ObjectTypeIndex        uint8
	SamplingFrequencyIndex uint8
	SamplingFrequency      uint32
	ChannelsConfiguration  uint8

	// GA Specific Info
	FrameLengthFlag                  bool
	DependsOnCoreCoder               bool
	CoreCoderDelay                   uint16
	ExtensionFlag                    bool
	AACSectionDataResilienceFlag     bool
	AACScalefactorDataResilienceFlag bool
	AACSpectralDataResilienceFlag    bool
	EPConfig                         uint8

	// SBR extension
	SBRPresentFlag  int8
	ForceUpSampling bool
	DownSampledSBR  bool
}
