// Package framefile reads and writes frame dumps.
//
// A frame dump is a JSON lines file with one frame per line, in the order
// the transport received or will send them:
//
//	{"n":1,"type":"INTERMEDIATE","text":"H|\\^&|||analyzer\r"}
//	{"n":2,"type":"END","text":"L|1|N\r"}
//
// Dumps let captured instrument traffic be replayed through the reassembler
// and let chunked output be inspected without a live link.
package framefile
