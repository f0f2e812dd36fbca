/*
Package main is an application package for Findy Cloud Agent. The cloud agent
is the always online delegate of an offline owner identity. It receives the
encrypted agent to agent (A2A) envelopes addressed to its DIDs, decrypts them
with its own wallet, and either routes the inner message onward to another
identity of the process or handles it itself.

The process hosts many agents. Each agent has its own wallet and identity, and
it provisions a pairwise agent connection for each relationship of its owner
by request. Every agent and agent connection has its own sequential inbox, and
they all are reachable through the same process wide router by their DIDs.

# Usage

Create an agent for an owner:

	findy-cloud-agent agent create \
		--owner-did VsKV7grR1BUE29mG2Fm2kX \
		--owner-verkey GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL

Start the server which restores the created agents:

	findy-cloud-agent server --enclave-key <hex key>

All flags can be given as environment variables with FCA_ prefix, or in the
config file given with --config.
*/
package main
