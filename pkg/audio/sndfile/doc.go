// Package sndfile opens sound files for block reads and creates them for block writes.
//
// A File hides the container behind frame-counted ReadFloat32/ReadInt16 and
// WriteFloat32/WriteInt16 calls. Reads fill the requested frame count unless
// the file ends first, and return 0 once it is exhausted.
package sndfile
