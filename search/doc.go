// Copyright 2025 The recall Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search ranks messages with a hybrid of semantic and keyword
// retrieval.
//
// The Searcher type embeds the query, asks a vector store for nearest
// neighbors, merges in case-insensitive substring matches from the message
// repository, and weights the two result sets with a single alpha parameter
// (0 is pure keyword, 1 is pure semantic).
package search
