// Package hosts registers every built-in host with media_downloader.DefaultHostRegistry.
package hosts

import (
	_ "github.com/alanbriolat/media-downloader/hosts/direct"
	_ "github.com/alanbriolat/media-downloader/hosts/generic"
	_ "github.com/alanbriolat/media-downloader/hosts/youtube"
)
