// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package graph

// TimeStamp is a file modification time in arbitrary monotone units
// supplied by a DiskInterface. It has two distinguished values in addition
// to an ordinary mtime:
//
//	Unexamined: the file hasn't been stat'd yet.
//	Missing:    it was stat'd and does not exist.
//	>0:         the file's actual modification time.
//
// The transition Unexamined -> {Missing, mtime} happens through a stat;
// going back to Unexamined requires an explicit Reset.
type TimeStamp int64

const (
	// Unexamined marks a node that has not been stat'd this scan.
	Unexamined TimeStamp = -1
	// Missing marks a node that was stat'd and does not exist.
	Missing TimeStamp = 0
)

// StatusKnown reports whether the node has been examined (stat'd) already.
func (t TimeStamp) StatusKnown() bool { return t != Unexamined }

// Exists reports whether the stat'd file is present.
func (t TimeStamp) Exists() bool { return t != Missing }
