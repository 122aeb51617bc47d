package imageio

// Reserved attribute names. Plugins that understand one of these must honor
// it; unknown attributes are ignored.
const (
	AttrCompression    = "compression"
	AttrPlanarConfig   = "planarconfig"
	AttrDateTime       = "DateTime"
	AttrArtist         = "Artist"
	AttrCopyright      = "Copyright"
	AttrDocumentName   = "DocumentName"
	AttrXResolution    = "XResolution"
	AttrYResolution    = "YResolution"
	AttrResolutionUnit = "ResolutionUnit"

	AttrBitsPerSample      = "BitsPerSample"
	AttrCompressionQuality = "CompressionQuality"
	AttrSoftware           = "Software"
)

// Capability names accepted by ImageOutput.Supports.
const (
	FeatureTiles        = "tiles"
	FeatureRectangles   = "rectangles"
	FeatureRandomAccess = "random_access"
	FeatureMultiImage   = "multiimage"
	FeatureVolumes      = "volumes"
)

// DateTimeLayout is the layout of the DateTime attribute,
// "YYYY:MM:DD HH:MM:SS".
const DateTimeLayout = "2006:01:02 15:04:05"
