/*
Package mmr implements a Merkle Mountain Range: an append-only forest of
perfect binary hash trees whose combined ("bagged") root authenticates the
full history of appended elements.

Every node, leaf or interior, is assigned a position in the order it is
created. Appending a leaf may complete one or more perfect subtrees, in
which case the new parent nodes are created immediately after the leaf,
exactly like incrementing a binary counter. An MMR with 11 leaves therefore
has 19 nodes arranged in 3 peaks:

	3              14
	             /    \
	            /      \
	           /        \
	2         6          13
	        /   \       /   \
	1      2     5     9     12     17
	      / \   / \   / \   /  \   /  \
	0    0   1 3   4 7   8 10  11 15  16  18

The peaks (here 14, 17 and 18) are the roots of the maximal perfect
subtrees composing the structure; their number and heights follow the set
bits of the leaf count. The root digest binds the node count together with
the ordered peak digests, so structures of different sizes can never share
a root even if they share peaks.

Proofs are extracted over a single leaf or a contiguous run of leaves and
verified against a previously trusted root using positional arithmetic
alone; no stored tree is consulted during verification, and verification
deliberately rejects proofs carrying any digest the arithmetic does not
consume.
*/
package mmr
