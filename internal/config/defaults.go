package config

const (
	defaultStagingDir = "~/.local/share/coolio/staging"
	defaultLibraryDir = "~/.local/share/coolio/library"
	defaultLogDir     = "~/.local/share/coolio/logs"
	defaultScratchDir = "~/.cache/coolio/scratch"

	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"

	defaultCrossfadeMS          = 5000
	defaultTargetPeakDBFS       = -1.0
	defaultSilenceThresholdDBFS = -33.0
	defaultMaxTrimMS            = 30000
	defaultBitrateKbps          = 320

	defaultLoopFPS              = 15
	defaultLoopMinSeconds       = 8.0
	defaultLoopMaxSeconds       = 10.0
	defaultContinuityWindow     = 3
	defaultSeamSeconds          = 0.2
	defaultLoopMaxDimension     = 320
	defaultLoopCRF              = 18
	defaultLoopPreset           = "veryfast"

	defaultCanvasSize = 1080
	defaultDiscRadius = 420
	defaultHoleRadius = 30
	defaultBrandText  = "coolio"

	defaultStableAudioBaseURL = "https://api.stability.ai/v2beta/audio/stable-audio-2/text-to-audio"
	defaultStableAudioModel   = "stable-audio-2.5"
	defaultElevenLabsBaseURL  = "https://api.elevenlabs.io/v1/music"

	defaultRetryMaxAttempts = 5
	defaultRetryBaseDelayMS = 1000
	defaultRetryMaxDelayMS  = 10000

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LibraryDir: defaultLibraryDir,
			LogDir:     defaultLogDir,
			ScratchDir: defaultScratchDir,
		},
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Mix: Mix{
			CrossfadeMS:          defaultCrossfadeMS,
			Normalize:            true,
			TargetPeakDBFS:       defaultTargetPeakDBFS,
			TrimLeadingSilence:   true,
			SilenceThresholdDBFS: defaultSilenceThresholdDBFS,
			MaxTrimMS:            defaultMaxTrimMS,
			BitrateKbps:          defaultBitrateKbps,
		},
		Loop: Loop{
			FPS:                    defaultLoopFPS,
			MinSeconds:             defaultLoopMinSeconds,
			MaxSeconds:             defaultLoopMaxSeconds,
			ContinuityWindowFrames: defaultContinuityWindow,
			SeamSeconds:            defaultSeamSeconds,
			MaxDimension:           defaultLoopMaxDimension,
			CRF:                    defaultLoopCRF,
			Preset:                 defaultLoopPreset,
		},
		Artwork: Artwork{
			CanvasSize: defaultCanvasSize,
			DiscRadius: defaultDiscRadius,
			HoleRadius: defaultHoleRadius,
			BrandText:  defaultBrandText,
		},
		StableAudio: Provider{
			BaseURL: defaultStableAudioBaseURL,
			Model:   defaultStableAudioModel,
		},
		ElevenLabs: Provider{
			BaseURL: defaultElevenLabsBaseURL,
		},
		Retry: Retry{
			MaxAttempts: defaultRetryMaxAttempts,
			BaseDelayMS: defaultRetryBaseDelayMS,
			MaxDelayMS:  defaultRetryMaxDelayMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
