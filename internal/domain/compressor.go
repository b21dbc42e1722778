package domain

type Compressor interface {
	Compress(sourcePath, destPath string) error
	Decompress(sourcePath, destPath string) error
	// Ext is the filename extension appended to compressed artifacts, e.g. ".gz".
	Ext() string
}
