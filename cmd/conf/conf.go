package conf

const (
	logKey     = "log"
	convertKey = "convert"
	packKey    = "pack"
	infoKey    = "info"
	genKey     = "gen"

	LogLevel    = logKey + ".level"    // LogLevel : debug, info, warn, error
	LogEncoding = logKey + ".encoding" // LogEncoding : logfmt, json or plain

	ConvertReorder  = convertKey + ".reorder"  // ConvertReorder : apply Morton vertex reordering before encoding
	ConvertStrict   = convertKey + ".strict"   // ConvertStrict : reject reserved header bits and trailing bytes
	ConvertValidate = convertKey + ".validate" // ConvertValidate : reject faces referencing missing positions
	ConvertWorkers  = convertKey + ".workers"  // ConvertWorkers : number of files processed concurrently
	ConvertTo       = convertKey + ".to"       // ConvertTo : output format for batch conversion
	ConvertOutDir   = convertKey + ".out_dir"  // ConvertOutDir : batch mode output directory

	PackCompression = packKey + ".compression" // PackCompression : none, zlib, zstd or lz4
	PackLevel       = packKey + ".level"       // PackLevel : codec specific level, -1 for the default

	InfoFormat = infoKey + ".format" // InfoFormat : text, yaml or json

	GenJitter    = genKey + ".jitter"     // GenJitter : maximum Y offset of generated vertices
	GenJitterMin = genKey + ".jitter_min" // GenJitterMin : lower jitter bound when generating several meshes
	GenSeed      = genKey + ".seed"       // GenSeed : random seed, 0 for the clock
	GenCount     = genKey + ".count"      // GenCount : number of meshes to generate

	EnvPrefix = "CBM"
)
