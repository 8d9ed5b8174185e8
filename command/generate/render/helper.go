package render

import (
	"strings"

	"github.com/lithammer/dedent"
)

// Helper identifies a runtime shell routine shared by stanzas. The
// assembly step emits each required definition exactly once, in
// first-use order.
type Helper int

const (
	HelperLinker Helper = iota
	HelperLatest
)

func (h Helper) Name() string {
	switch h {
	case HelperLinker:
		return "linker"
	case HelperLatest:
		return "latest"
	}
	return ""
}

// Definition returns the helper's shell source. The bodies are a fixed
// runtime contract consumed by emitted stanzas and must not drift.
func (h Helper) Definition() string {
	switch h {
	case HelperLinker:
		return linkerDefinition
	case HelperLatest:
		return latestDefinition
	}
	return ""
}

// linker creates a symlink, backing up whatever already occupies the
// target; safe to invoke repeatedly.
var linkerDefinition = shell(`
	linker() {
	    file=$(realpath "$1")
	    link="${2/#\~/$HOME}"
	    echo "$link -> $file"
	    if [ -f "$link" ] && [ "$file" != "$(readlink "$link")" ]; then
	        orig="$link.orig"
	        mv "$link" "$orig"
	    elif [ ! -f "$link" ] && [ -L "$link" ]; then
	        unlink "$link"
	    fi
	    if [ -f "$link" ]; then
	        echo "[exists] $link"
	    else
	        echo "[create] $link -> $file"
	        mkdir -p "$(dirname "$link")"; ln -s "$file" "$link"
	    fi
	}
`)

// latest downloads the newest release asset matching a pattern and
// installs the extracted binary into ~/bin.
var latestDefinition = shell(`
	latest() {
	    PATTERN="$1"
	    LATEST="$2"
	    NAME="${3:-"$PATTERN"}"
	    echo "Fetching latest release from: $LATEST"
	    echo "Using pattern: $PATTERN"
	    URL="$(curl -sL "$LATEST" | jq -r ".assets[] | select(.name | test(\"$PATTERN\")) | .browser_download_url")"
	    if [[ -z "$URL" ]]; then
	        echo "No URL found for pattern: $PATTERN"
	        exit 1
	    fi
	    echo "Downloading from URL: $URL"
	    FILENAME=$(basename "$URL")
	    TMPDIR=$(mktemp -d /tmp/manifest.XXXXXX)
	    pushd "$TMPDIR"
	    curl -sSL "$URL" -o "$FILENAME"
	    echo "Downloaded $FILENAME"
	    if [[ "$FILENAME" =~ \.tar\.gz$ ]]; then
	        tar xzf "$FILENAME"
	    elif [[ "$FILENAME" =~ \.tbz$ ]]; then
	        tar xjf "$FILENAME"
	    fi
	    BINARY=$(find . -type f -name "$NAME" -exec chmod a+x {} + -print)
	    if [[ -z "$BINARY" ]]; then
	        echo "No binary found named $NAME"
	        exit 1
	    fi
	    mv "$BINARY" ~/bin/
	    popd
	    rm -rf "$TMPDIR"
	}
`)

// shell normalizes an indented raw-string shell fragment: strip the Go
// source indentation and the leading blank line.
func shell(text string) string {
	return strings.TrimPrefix(dedent.Dedent(text), "\n")
}
