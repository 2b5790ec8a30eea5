// Package decentrapay and its sub-packages implement the backend services of the DecentraPay crypto payment platform.
/*
decentrapay provides you with three microservices:

1) a wallet microservice (package wallet) that generates wallets (keypairs and addresses) for Ethereum, BNB, USDT
 (ERC20), Bitcoin, Solana, XRP and Monero, stores them and replies them to the client. The secret material of a
 wallet is only replied once, when it is generated.

2) a pricer microservice (package pricer) that fetches crypto prices and fiat exchange rates from market data APIs and
 stores timestamped snapshots, and replies the ether balance of addresses.

3) a mailer microservice (package mailer) that relays emails to an SMTP server.

Architecture

Each chain has its own key provider (packages under lib/chain) registered by wallet type in a registry (package
lib/chain). Most providers derive keys locally using the chain's libraries; the Monero provider drives an external
monero-wallet-rpc.

The services persist their data through a database product agnostic layer (package lib/store) with MongoDB, PostgreSQL
and in-memory implementations. They can also communicate via a message broker (package lib/msg): the wallet service
publishes an event for each new wallet and the mailer consumes mail requests published by any service.

Services are configured with a JSON config file, a .env file and DP_ environment variables (package lib/config), log
with zap (package lib/logging) and can be monitored via a Prometheus API by setting the flag "-m" at startup.

Wallet

The wallet microservice can be started running cmd/wallet/main.go. GET /generate-wallet/{type} generates a wallet,
GET /wallets lists the types available and GET /wallets/{id} replies the public part of a stored wallet.

Pricer

The pricer microservice can be started running cmd/pricer/main.go. GET /update-prices and GET /update-exchange-rates
fetch and store a snapshot, POST /check-wallet replies the ether balance of an address. Snapshots can also be taken
periodically.

Mailer

The mailer microservice can be started running cmd/mailer/main.go. POST /send-email sends an email.
*/
package decentrapay
