package extraction

const jsonOnly = `Return ONLY valid JSON. Use null for fields that are not present in the document. Keep numbers as they appear, using "." as decimal separator.`

const invoiceHeaderPrompt = `You are extracting data from an international trade %s.
Read the whole document and return a single JSON object with these keys:
{
  "invoiceNumber": "", "invoiceDate": "", "exporter": {"name": "", "address": "", "country": ""},
  "importer": {"name": "", "address": "", "taxId": ""}, "consignee": "", "notifyParty": "",
  "incoterm": "", "paymentTerms": "", "currency": "", "portOfLoading": "", "portOfDischarge": "",
  "countryOfOrigin": "", "totalFob": null, "freight": null, "insurance": null, "totalValue": null,
  "netWeight": null, "grossWeight": null
}
` + jsonOnly

const invoiceItemsPrompt = `List EVERY product line of this %s. Do not skip or summarize lines, even across pages.
Return a JSON array where each element has:
{"itemCode": "", "description": "", "ncm": "", "quantity": null, "unit": "", "unitPrice": null, "totalPrice": null, "netWeight": null, "grossWeight": null}
` + jsonOnly

const packingListHeaderPrompt = `You are extracting data from an international trade packing list.
Return a single JSON object with these keys:
{
  "packingListNumber": "", "invoiceNumber": "", "date": "", "shipper": "", "consignee": "",
  "portOfLoading": "", "portOfDischarge": "", "vessel": "", "totalPackages": null,
  "totalNetWeight": null, "totalGrossWeight": null, "totalVolume": null
}
` + jsonOnly

const packingListContainersPrompt = `List every container or cargo unit mentioned in this packing list.
Return a JSON array where each element has:
{"containerNumber": "", "sealNumber": "", "type": "", "packages": null, "netWeight": null, "grossWeight": null, "volume": null}
Return [] when the document lists no containers.
` + jsonOnly

const packingListDispositionPrompt = `Using the document and the container list below, explain in plain text how the products are distributed among the containers and packages.
Mention which product ranges, package numbers or marks go in each container. Answer in prose, not JSON.`

const packingListItemsPrompt = `Using the document and the explanation below, list EVERY packed product line.
Return a JSON array where each element has:
{"itemCode": "", "description": "", "containerNumber": "", "packageRange": "", "packages": null, "quantity": null, "unit": "", "netWeight": null, "grossWeight": null, "volume": null}
` + jsonOnly

const swiftPrompt = `You are reading a bank SWIFT payment message (MT103 or similar).
Return a single JSON object with these keys:
{
  "messageType": "", "senderBic": "", "receiverBic": "", "transactionReference": "",
  "valueDate": "", "currency": "", "amount": "", "orderingCustomer": "", "orderingInstitution": "",
  "beneficiary": "", "beneficiaryAccount": "", "beneficiaryBank": "", "remittanceInformation": "",
  "detailsOfCharges": ""
}
` + jsonOnly

const diHeaderPrompt = `You are reading a Brazilian import declaration (Declaração de Importação, DI).
Return a single JSON object with the general data:
{
  "diNumber": "", "registrationDate": "", "importer": {"name": "", "cnpj": ""},
  "customsUnit": "", "modality": "", "transportMode": "", "vessel": "", "billOfLading": "",
  "arrivalDate": "", "cifValueBrl": null, "exchangeRate": null, "currency": "",
  "totalAdditions": null, "grossWeight": null, "netWeight": null
}
` + jsonOnly

const diItemsPrompt = `List EVERY addition (adição) of this import declaration.
Return a JSON array where each element has:
{"additionNumber": "", "ncm": "", "description": "", "supplier": "", "countryOfOrigin": "", "incoterm": "", "quantity": null, "unit": "", "unitValue": null, "customsValue": null, "netWeight": null}
` + jsonOnly

const diTaxesPrompt = `List every tax assessed in this import declaration (II, IPI, PIS, COFINS, ICMS, AFRMM, Siscomex fee).
Return a JSON array where each element has:
{"tax": "", "additionNumber": "", "calculationBase": null, "rate": null, "assessedAmount": null, "paidAmount": null}
` + jsonOnly

const numerarioDIPrompt = `This is a cash request statement (numerário) issued by a customs broker for an import.
Return a single JSON object describing the import declaration it refers to:
{"diNumber": "", "registrationDate": "", "processReference": "", "importer": "", "billOfLading": "", "exchangeRate": null}
` + jsonOnly

const numerarioHeaderPrompt = `Return a single JSON object with the general data of this cash request statement:
{"documentNumber": "", "issueDate": "", "broker": "", "importer": "", "dueDate": "", "currency": "", "totalAmount": null, "advanceAmount": null, "balance": null}
` + jsonOnly

const numerarioItemsPrompt = `List EVERY expense line of this cash request statement (taxes, fees, freight, storage, broker fees).
Return a JSON array where each element has:
{"description": "", "category": "", "amount": null, "paidBy": "", "notes": ""}
` + jsonOnly

const notaFiscalHeaderPrompt = `You are reading a Brazilian electronic invoice (Nota Fiscal, DANFE).
Return a single JSON object with these keys:
{
  "number": "", "series": "", "accessKey": "", "issueDate": "", "operationNature": "", "cfop": "",
  "issuer": {"name": "", "cnpj": "", "stateRegistration": ""},
  "recipient": {"name": "", "cnpj": "", "stateRegistration": ""},
  "productsTotal": null, "freight": null, "insurance": null, "icmsBase": null, "icmsAmount": null,
  "ipiAmount": null, "pisAmount": null, "cofinsAmount": null, "totalAmount": null, "additionalInfo": ""
}
` + jsonOnly

const notaFiscalItemsPrompt = `List EVERY product line of this Nota Fiscal.
Return a JSON array where each element has:
{"productCode": "", "description": "", "ncm": "", "cfop": "", "unit": "", "quantity": null, "unitPrice": null, "totalPrice": null, "icmsRate": null, "ipiRate": null}
` + jsonOnly

const genericPrompt = `Extract all relevant data from this trade document.
Return a single JSON object whose keys are descriptive camelCase field names and whose values are the extracted values.
` + jsonOnly
