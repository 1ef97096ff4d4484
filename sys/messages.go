package sys

// @src
const (
	// Configuration
	MsgConfigFailedToLoad   = "Failed to load config: %v"
	MsgConfigMissingToken   = "DISCORD_TOKEN is not set in .env file"
	MsgConfigInvalidGuildID = "invalid GUILD_ID: must be a valid Snowflake"
	MsgConfigInvalidNumber  = "invalid %s: %q is not a positive number"

	// Data layer
	MsgDatabaseInitSuccess   = "Database initialized successfully"
	MsgDatabaseTableError    = "failed to create table: %w"
	MsgDatabasePragmaError   = "failed to set pragma %s: %w"
	MsgDatabaseNotReady      = "database is not initialized"
	MsgDatabaseHistoryFail   = "Failed to record autoplay history for guild %s: %v"
	MsgDatabaseHistoryPruned = "Pruned %d autoplay history rows"

	// Command registry
	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderDevGlobalClear     = "[DEV] Verifying global commands are cleared..."
	MsgLoaderDevGlobalClearFail = "[DEV] Global clear skipped (likely rate limited): %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderScanStarting       = "[SCAN] Checking all guilds for ghost commands..."
	MsgLoaderScanCleared        = "[SCAN] Cleared ghost commands from: %s (%s)"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"
	MsgLoaderUpToDate           = "Commands are up to date. (Hash: %s)"
	MsgLoaderInvalidGuildID     = "invalid GUILD_ID: %w"

	// Bot lifecycle
	MsgBotStarting         = "Starting %s..."
	MsgInitializing        = "Initializing %s..."
	MsgBotReady            = "%s is ready! (ID: %s) (PID: %d) (%dms)"
	MsgBotShutdown         = "Shutting down %s..."
	MsgBotRegisterFail     = "Command registration failed: %v"
	MsgBotSkipReg          = "Skipping command registration."
	MsgBotClientCreateFail = "failed to create client after %d attempts: %w"
	MsgBotClientRetry      = "Client creation failed (attempt %d): %v"
	MsgBotGatewayFail      = "failed to open gateway: %w"
	MsgDatabaseInitFail    = "Failed to initialize database: %v"
	MsgDaemonStarting      = "Starting..."
	MsgDaemonShutdown      = "Shutting down all daemons..."
)

// @voice
const (
	// System logs
	MsgVoiceSessionCreated   = "Session %s created in guild %s (generation %d)"
	MsgVoiceSessionDeleted   = "Session %s deleted in guild %s (%s)"
	MsgVoiceJoining          = "Joining channel %s in guild %s"
	MsgVoiceJoinFail         = "Failed to connect to voice in guild %s: %v"
	MsgVoiceLeaving          = "Leaving voice in guild %s"
	MsgVoiceTrackQueued      = "Queued %q in guild %s (%d upcoming)"
	MsgVoiceTrackStarted     = "Playing %q in guild %s (filters: %s)"
	MsgVoiceTrackFinished    = "Finished %q in guild %s after %s"
	MsgVoiceStaleCallback    = "Dropped stale playback callback for guild %s (generation %d, current %d)"
	MsgVoiceAutoplayPick     = "Autoplay picked %q in guild %s"
	MsgVoiceAutoplayFail     = "Autoplay could not find a follow-up in guild %s: %v"
	MsgVoiceChannelEmpty     = "Voice channel emptied in guild %s"
	MsgVoiceFilterChain      = "Filter chain for guild %s: %s"
	MsgVoicePaused           = "Playback paused in guild %s"
	MsgVoiceResumed          = "Playback resumed in guild %s"
	MsgVoicePlayerError      = "Player error in guild %s: %v"
	MsgVoiceProviderError    = "Provider failed for %q: %v"
	MsgVoiceCommand          = "User %s (%s) ran /%s in guild %s"
	MsgVoiceRespondFail      = "Failed to respond to /%s: %v"
	MsgVoiceNotifyFail       = "Failed to send notification to channel %s: %v"
	MsgVoicePresenceFail     = "Failed to update presence: %v"
	MsgVoiceSessionEnded     = "Session ended in guild %s (%s)"
	MsgVoiceShutdownSessions = "Closing %d active sessions..."

	// User-facing messages
	MsgPlayStartingQueue = "Starting new queue with: %s"
	MsgPlayAddingToQueue = "Adding \"%s\" to the queue"
	MsgPlayQueueAhead    = "There are %d songs in queue"
	ErrPlayNoTrackFound  = "No track found"
	ErrPlayFailed        = "An error occurred while playing the song!"
	MsgStopNothing       = "Nothing to stop"
	MsgStopDone          = "Stopped current song and deleted queue"
	ErrNoPlayerSession   = "This server does not have an active player session."
	ErrNothingPlaying    = "There is no track playing."
	MsgSkipPastEnd       = "You skipped over queue's length, stopping playback"
	MsgSkipAutoplay      = "Skipped past the end of the queue, searching for an autoplay track"
	MsgSkipDone          = "Skipping %d song/s"
	MsgLoopSet           = "Loop mode set to %s"
	ErrLoopInvalidMode   = "That loop mode does not exist."
	ErrFiltersMissing    = "You need to name at least one filter."
	MsgFiltersCleared    = "Removed all filters"
	MsgFiltersEnabled    = "Enabled filters"
	MsgNowPlaying        = "Now playing: %s"
	MsgNowPlayingQueue   = "There are still %d songs in queue"
	MsgUnknownAuthor     = "Unknown"

	// Pre-checks
	ErrVoiceNotInChannel     = "You need to be in a voice channel to play music!"
	ErrVoiceDifferentChannel = "I am already playing in a different voice channel!"
	ErrVoiceNoConnect        = "I do not have permission to join your voice channel!"
	ErrVoiceNoSpeak          = "I do not have permission to speak in your voice channel!"
	ErrGuildOnly             = "This command can only be used in a server."
)

// @search
const (
	MsgSearchStarting      = "Search starting for: %s"
	MsgSearchFound         = "Search found %d results for %s"
	MsgSearchTimeout       = "Search for %q timed out after %v"
	MsgSearchFailed        = "Search failed for %q: %v"
	MsgSearchThrottled     = "Autocomplete throttled for %q"
	MsgSearchLookupFailed  = "Lookup failed for %s: %v"
	MsgSearchRelatedFailed = "Related lookup failed for %s: %v"
)

// @housekeeping
const (
	// System logs
	MsgHousekeepingSwept    = "Deleted %d bot messages in channel %s"
	MsgHousekeepingFail     = "Cleanup failed in channel %s: %v"
	MsgHousekeepingFetchErr = "Failed to fetch messages in channel %s: %v"

	// User-facing messages
	MsgHousekeepingDeleted = "I deleted %d messages"
	MsgHousekeepingNothing = "There's nothing to delete"
	ErrHousekeepingFailed  = "Couldn't delete messages"
)

// @status
const (
	MsgStatusUpdateFail        = "Update failed: %v"
	MsgStatusRotated           = "Status rotated to: \"%s\" (Next rotate in %v)"
	MsgStatusRotatedNoInterval = "Status rotated to: \"%s\""
	MsgStatusSkippedPlaying    = "Rotation skipped, %d guilds are playing"
)
