/*
Package agent is a package for the cloud agent and its services. It holds all
the needed packages to implement an agency where every owner has a cloud agent
of its own. The cloud.Agent is the most important abstraction of the package.
Other packages like router, actor and sec offer specific services for the
cloud.Agent to be able to perform its duties like serve its owner and the
connections the owner has created with the other agents.

The agent package is empty itself. All the functionality is inside sub-packages.
Summary of the packages:

 a2a        agent-to-agent messages, envelopes and bundles
 accessmgr  wallet backups of the wallets written since the last backup
 actor      inbox and dispatch of a single recipient
 agency     agent register, restore and creation of the cloud agents
 cloud      is a package for cloud agent (CA)
 e2         error kinds and err2 helpers
 pairwise   connection actors of the cloud agent
 router     routing table from DIDs to recipients
 sec        pack and unpack of the envelopes, the codec
 ssi        wallets, keys and pairwise records: the keystore
 utils      helpers for settings, JSON register, UUIDs, ..
*/
package agent
