package v1

type VoicePack struct {
	Kind     string        `yaml:"kind" json:"kind" validate:"required,eq=VoicePack"`
	Metadata Metadata      `yaml:"metadata" json:"metadata" validate:"required"`
	Spec     VoicePackSpec `yaml:"spec" json:"spec"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type VoicePackSpec struct {
	Transcripts *TranscriptsSpec `yaml:"transcripts,omitempty" json:"transcripts,omitempty"`
	Synthesis   *SynthesisSpec   `yaml:"synthesis,omitempty" json:"synthesis,omitempty"`
	Audio       *AudioSpec       `yaml:"audio,omitempty" json:"audio,omitempty"`
	Archive     *ArchiveSpec     `yaml:"archive,omitempty" json:"archive,omitempty"`
	Upload      *UploadSpec      `yaml:"upload,omitempty" json:"upload,omitempty"`
}

// TranscriptsSpec configures where voice lines are read from.
type TranscriptsSpec struct {
	// Path is the transcripts CSV file (default: transcripts.csv).
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// IDColumn is the CSV column holding the line id (default: id).
	IDColumn string `yaml:"id_column,omitempty" json:"id_column,omitempty"`

	// SSMLColumn is the CSV column holding the SSML text (default: ssml).
	SSMLColumn string `yaml:"ssml_column,omitempty" json:"ssml_column,omitempty"`
}

// SynthesisSpec configures the text-to-speech backend and output format.
type SynthesisSpec struct {
	// Voice is the TTS voice name (default: en-GB-Chirp3-HD-Leda).
	Voice string `yaml:"voice,omitempty" json:"voice,omitempty"`

	// Language is the BCP-47 language code (default: en-GB).
	Language string `yaml:"language,omitempty" json:"language,omitempty"`

	// Format is the produced audio format (default: ogg).
	Format string `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=wav mp3 ogg"`

	// APIKey authenticates against the TTS endpoint. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// Endpoint overrides the TTS synthesize URL.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty" validate:"omitempty,url"`

	// KeepWAV keeps the intermediate WAV next to transcoded output.
	KeepWAV bool `yaml:"keep_wav,omitempty" json:"keep_wav,omitempty"`
}

// AudioSpec configures the directory holding synthesized audio files.
type AudioSpec struct {
	// Dir is the audio directory (default: out_audio).
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`

	// Suffix selects which files are bundled (default: .ogg).
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// ArchiveSpec configures the produced voice pack archive.
type ArchiveSpec struct {
	// Name is the archive file name (default: voice.tar.gz). Supports ${VAR} expansion.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Compression is the archive compression (default: gzip).
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" validate:"omitempty,oneof=gzip zstd none"`
}

// UploadSpec configures where the finished archive is published (one of the
// fields should be set).
type UploadSpec struct {
	S3 *S3UploadSpec `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// S3UploadSpec configures upload to S3-compatible object storage.
type S3UploadSpec struct {
	Bucket string `yaml:"bucket" json:"bucket" validate:"required"`

	Region *string `yaml:"region,omitempty" json:"region,omitempty"`

	// Endpoint points at S3-compatible services (R2, MinIO, ...).
	Endpoint *string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Prefix is prepended to the object key. Supports ${VAR} expansion.
	Prefix *string `yaml:"prefix,omitempty" json:"prefix,omitempty"`

	Credentials *S3CredentialsSpec `yaml:"credentials,omitempty" json:"credentials,omitempty"`

	// ForcePathStyle enables path-style addressing for MinIO and friends.
	ForcePathStyle bool `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
}

type S3CredentialsSpec struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" validate:"required"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" validate:"required"`
}
